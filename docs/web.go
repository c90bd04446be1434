package docs

import "github.com/swaggo/swag"

const webTemplate = `{
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
        "/auth/register": {
            "post": {
                "summary": "Register an identity with its first profile",
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
        "/auth/login": {
            "post": {
                "summary": "Log in",
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
                "summary": "Identity, tier, profiles and profile limit",
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
        "/profiles": {
            "get": {
                "summary": "Own profiles",
                "tags": [
                    "profiles"
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
            },
            "post": {
                "summary": "Create a profile",
                "tags": [
                    "profiles"
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
            }
        },
        "/profiles/{handle}": {
            "get": {
                "summary": "Public profile",
                "tags": [
                    "profiles"
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
                }
            }
        },
        "/profiles/{id}": {
            "patch": {
                "summary": "Update a profile",
                "tags": [
                    "profiles"
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
            },
            "delete": {
                "summary": "Delete a profile",
                "tags": [
                    "profiles"
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
        "/profiles/{id}/avatar": {
            "put": {
                "summary": "Upload an avatar",
                "tags": [
                    "profiles"
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
                    "multipart/form-data"
                ]
            }
        },
        "/profiles/{handle}/posts": {
            "get": {
                "summary": "Posts of a profile",
                "tags": [
                    "posts"
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
                }
            }
        },
        "/profiles/{handle}/albums": {
            "get": {
                "summary": "Albums of a profile",
                "tags": [
                    "albums"
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
                }
            }
        },
        "/profiles/{handle}/follow": {
            "post": {
                "summary": "Follow as the acting profile",
                "tags": [
                    "follows"
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
            },
            "delete": {
                "summary": "Unfollow as the acting profile",
                "tags": [
                    "follows"
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
        "/posts": {
            "post": {
                "summary": "Publish a post as the acting profile",
                "tags": [
                    "posts"
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
                    "multipart/form-data"
                ]
            }
        },
        "/posts/{id}": {
            "delete": {
                "summary": "Delete a post",
                "tags": [
                    "posts"
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
        "/feed": {
            "get": {
                "summary": "Posts of followed profiles",
                "tags": [
                    "posts"
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
        "/albums": {
            "post": {
                "summary": "Create an album",
                "tags": [
                    "albums"
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
            }
        },
        "/albums/{id}": {
            "get": {
                "summary": "Album with photos",
                "tags": [
                    "albums"
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
                }
            }
        },
        "/albums/{id}/photos": {
            "post": {
                "summary": "Upload a photo",
                "tags": [
                    "albums"
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
                    "multipart/form-data"
                ]
            }
        },
        "/billing/tier": {
            "post": {
                "summary": "Set the tier of an identity (billing provider)",
                "tags": [
                    "billing"
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

// WebInfo describes the web API. Host and Schemes are set per request.
var WebInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/api/web",
	Schemes:          []string{},
	Title:            "Hearth Web API",
	Description:      "Social platform where one identity owns several public profiles.",
	InfoInstanceName: "web",
	SwaggerTemplate:  webTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(WebInfo.InstanceName(), WebInfo)
}
