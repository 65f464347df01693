package main

// @title Lumina Storefront API
// @version 1.0
// @description Session-scoped storefront API with full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/lumina-storefront
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/lumina-storefront/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey SessionID
// @in header
// @name X-Session-ID
// @description Session id issued by the storefront on the first request.

// @tag.name Catalog
// @tag.description Read-only product catalog

// @tag.name Cart
// @tag.description Cart and saved-for-later list

// @tag.name Browse
// @tag.description Debounced product grid state

// @tag.name Assistant
// @tag.description AI styling assistant

// @tag.name Account
// @tag.description Sign in, registration and route authorization

// @tag.name Profile
// @tag.description Orders, addresses, payment methods and listings

// @tag.name Admin
// @tag.description Admin-only endpoints

// @tag.name Health
// @tag.description Health check endpoints
