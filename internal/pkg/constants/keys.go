package constants

// Cookie keys.
const (
	CookieKeySecretToken = "secret_token"
)

// Viper keys.
const (
	ViperContext         = "context"
	ViperListenAddr      = "listen_addr"
	ViperDatabaseDSN     = "database_dsn"
	ViperNationURL       = "nation_url"
	ViperRegionsURL      = "regions_url"
	ViperProvincesURL    = "provinces_url"
	ViperBotToken        = "bot_token"
	ViperOperatorChatID  = "operator_chat_id"
	ViperRefreshSchedule = "refresh_schedule"
	ViperWeeklySchedule  = "weekly_schedule"
	ViperSecretKey       = "admin_secret"
	ViperSigningKey      = "signing_key"
)
