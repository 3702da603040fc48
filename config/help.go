package config

// HelpMessage lists the environment variables understood by the service.
// Every variable can also be set in the yaml file as a nested key, `auth: {jwt_secret: ...}`.
const HelpMessage = `Environment:
  AUTH_JWT_SECRET          HMAC signing secret, at least 32 bytes (required)
  AUTH_ACCESS_TOKEN_TTL    access token lifetime (default 30m)
  AUTH_BCRYPT_COST         bcrypt cost (default 10)
  DATABASE_HOST, DATABASE_PORT, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME
  DATABASE_QUERY_TIMEOUT   per query timeout (default 5s)
  HTTP_HOST, HTTP_PORT     listen address (default 0.0.0.0:8000)
  OAUTH_CLIENT_ID          enables federated login when set
  OAUTH_CLIENT_SECRET, OAUTH_REDIRECT_URL, OAUTH_ISSUER_URL
  CORS_ALLOWED_ORIGINS     comma separated origins (default http://localhost:3000)
  RABBITMQ_ENABLED         publish domain events to RabbitMQ (default false)
  RABBITMQ_HOST, RABBITMQ_PORT, RABBITMQ_USER, RABBITMQ_PASSWORD, RABBITMQ_EXCHANGE
  LOG_LEVEL                DEBUG, INFO, WARN or ERROR (default INFO)
`
