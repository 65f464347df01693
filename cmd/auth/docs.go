package main

// @title Lumina Auth Service API
// @version 1.0
// @description Customer and admin accounts for the Lumina storefront: registration, login and bearer tokens.

// @host localhost:8081
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Registration and login

// @tag.name Admin
// @tag.description Admin-only endpoints

// @tag.name Health
// @tag.description Health check endpoints
