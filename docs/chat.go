package docs

import "github.com/swaggo/swag"

const chatTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/parents/register": {
            "post": {
                "summary": "Register a parent",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/auth/parents/login": {
            "post": {
                "summary": "Log in as a parent",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/auth/children/login": {
            "post": {
                "summary": "Log in as a child",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/auth/logout": {
            "post": {
                "summary": "Revoke the current session",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/auth/me": {
            "get": {
                "summary": "Current account",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/children": {
            "post": {
                "summary": "Create a child account",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "get": {
                "summary": "List own children",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/children/{id}": {
            "get": {
                "summary": "Child with current timeout and quiet hours state",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/children/{id}/oversight": {
            "patch": {
                "summary": "Set oversight mode",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/children/{id}/quiet-hours": {
            "put": {
                "summary": "Set quiet hours",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        },
        "/children/{id}/timeouts": {
            "post": {
                "summary": "Start a timeout",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "get": {
                "summary": "List timeouts",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/children/{id}/timeouts/{timeoutID}": {
            "delete": {
                "summary": "Lift a timeout",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "204": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/children/{id}/messages": {
            "get": {
                "summary": "All messages of a child",
                "tags": [
                    "children"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/friends": {
            "post": {
                "summary": "Send a friend request by username",
                "tags": [
                    "friends"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "get": {
                "summary": "Accepted friends",
                "tags": [
                    "friends"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/friendships/pending": {
            "get": {
                "summary": "Friend requests awaiting the parent",
                "tags": [
                    "friends"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/friendships/{id}/accept": {
            "post": {
                "summary": "Accept a friend request",
                "tags": [
                    "friends"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/friendships/{id}/decline": {
            "post": {
                "summary": "Decline a friend request",
                "tags": [
                    "friends"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/messages": {
            "post": {
                "summary": "Send a message",
                "tags": [
                    "messages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            },
            "get": {
                "summary": "Conversation with another child",
                "tags": [
                    "messages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/approvals": {
            "get": {
                "summary": "Messages waiting for approval",
                "tags": [
                    "messages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/messages/{id}/approve": {
            "post": {
                "summary": "Approve a pending message",
                "tags": [
                    "messages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ]
            }
        },
        "/messages/{id}/deny": {
            "post": {
                "summary": "Deny a pending message",
                "tags": [
                    "messages"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "success envelope"
                    },
                    "400": {
                        "description": "invalid input"
                    },
                    "default": {
                        "description": "error envelope"
                    }
                },
                "security": [
                    {
                        "session": []
                    }
                ],
                "consumes": [
                    "application/json"
                ]
            }
        }
    },
    "securityDefinitions": {
        "session": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Bearer token; the session cookie works as well"
        }
    }
}`

// ChatInfo describes the chat API. Host and Schemes are set per request.
var ChatInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/chat",
	Schemes:          []string{},
	Title:            "Hearth Chat API",
	Description:      "Parentally supervised messaging between children.",
	InfoInstanceName: "chat",
	SwaggerTemplate:  chatTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(ChatInfo.InstanceName(), ChatInfo)
}
