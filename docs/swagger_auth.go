package docs

// @title           Bookshelf Auth API
// @version         1.0
// @description     Registration, password and Google login, and per-user favorite books. Bearer JWTs are issued on login.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
