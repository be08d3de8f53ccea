package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/wardvision/scout/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	LogLevel       logging.Level

	// DataFile is the tournament document on disk. The directory must
	// exist; the file is created on first write.
	DataFile string

	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration

	OpggBaseURL           string
	OpggRegion            string
	LeagueOfGraphsBaseURL string
	RenewalEnabled        bool

	RefreshWorkers          int
	ScrapeTimeout           time.Duration
	ScrapeRequestTimeout    time.Duration
	ScrapeRequestsPerSecond float64
	ScrapeBurst             int
	ScrapeMaxAttempts       int
	ScrapeRetryBaseDelay    time.Duration
	ScrapeUserAgent         string

	ScrapeCircuitEnabled        bool
	ScrapeCircuitFailureCount   int
	ScrapeCircuitOpenTimeout    time.Duration
	ScrapeCircuitHalfOpenMaxReq int

	DDragonCacheTTL time.Duration

	FlagOneTrickMinGames int
	FlagOneTrickShare    float64
	FlagMainMinGames     int
	FlagMainBaseRatio    float64
	FlagMainRatioStep    float64
	FlagMainMinRatio     float64

	AdvisorTopPoolSize      int
	AdvisorMaxBans          int
	AdvisorMaxPicksPerRole  int
	AdvisorComfortMinGames  int
	AdvisorMasteryMinPoints int
	AdvisorSignatureWeight  float64
	AdvisorOverlapWeight    float64
	AdvisorComfortWeight    float64
	AdvisorMasteryWeight    float64

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	renewalEnabled, err := strconv.ParseBool(getEnv("OPGG_RENEWAL_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPGG_RENEWAL_ENABLED: %w", err)
	}

	refreshWorkers, err := getEnvAsInt("REFRESH_WORKERS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_WORKERS: %w", err)
	}
	if refreshWorkers < 1 {
		return Config{}, fmt.Errorf("REFRESH_WORKERS must be >= 1")
	}

	scrapeTimeout, err := time.ParseDuration(getEnv("SCRAPE_TIMEOUT", "90s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_TIMEOUT: %w", err)
	}
	if scrapeTimeout <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_TIMEOUT must be > 0")
	}

	scrapeRequestTimeout, err := time.ParseDuration(getEnv("SCRAPE_REQUEST_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_REQUEST_TIMEOUT: %w", err)
	}
	if scrapeRequestTimeout <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_REQUEST_TIMEOUT must be > 0")
	}

	scrapeRPS, err := getEnvAsFloat("SCRAPE_REQUESTS_PER_SECOND", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_REQUESTS_PER_SECOND: %w", err)
	}
	if scrapeRPS <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_REQUESTS_PER_SECOND must be > 0")
	}

	scrapeBurst, err := getEnvAsInt("SCRAPE_BURST", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_BURST: %w", err)
	}
	if scrapeBurst < 1 {
		return Config{}, fmt.Errorf("SCRAPE_BURST must be >= 1")
	}

	scrapeMaxAttempts, err := getEnvAsInt("SCRAPE_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_MAX_ATTEMPTS: %w", err)
	}
	if scrapeMaxAttempts < 1 {
		return Config{}, fmt.Errorf("SCRAPE_MAX_ATTEMPTS must be >= 1")
	}

	scrapeRetryBaseDelay, err := time.ParseDuration(getEnv("SCRAPE_RETRY_BASE_DELAY", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_RETRY_BASE_DELAY: %w", err)
	}
	if scrapeRetryBaseDelay <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_RETRY_BASE_DELAY must be > 0")
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("SCRAPE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("SCRAPE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SCRAPE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("SCRAPE_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if circuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("SCRAPE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("SCRAPE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SCRAPE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	ddragonCacheTTL, err := time.ParseDuration(getEnv("DDRAGON_CACHE_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DDRAGON_CACHE_TTL: %w", err)
	}
	if ddragonCacheTTL <= 0 {
		return Config{}, fmt.Errorf("DDRAGON_CACHE_TTL must be > 0")
	}

	flagOneTrickMinGames, err := getEnvAsInt("FLAG_ONE_TRICK_MIN_GAMES", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLAG_ONE_TRICK_MIN_GAMES: %w", err)
	}
	flagOneTrickShare, err := getEnvAsFloat("FLAG_ONE_TRICK_SHARE", 0.6)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLAG_ONE_TRICK_SHARE: %w", err)
	}
	if flagOneTrickShare <= 0 || flagOneTrickShare > 1 {
		return Config{}, fmt.Errorf("FLAG_ONE_TRICK_SHARE must be in (0, 1]")
	}
	flagMainMinGames, err := getEnvAsInt("FLAG_MAIN_MIN_GAMES", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLAG_MAIN_MIN_GAMES: %w", err)
	}
	flagMainBaseRatio, err := getEnvAsFloat("FLAG_MAIN_BASE_RATIO", 2.0)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLAG_MAIN_BASE_RATIO: %w", err)
	}
	flagMainRatioStep, err := getEnvAsFloat("FLAG_MAIN_RATIO_STEP", 0.0125)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLAG_MAIN_RATIO_STEP: %w", err)
	}
	flagMainMinRatio, err := getEnvAsFloat("FLAG_MAIN_MIN_RATIO", 1.5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FLAG_MAIN_MIN_RATIO: %w", err)
	}

	advisorTopPoolSize, err := getEnvAsInt("ADVISOR_TOP_POOL_SIZE", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_TOP_POOL_SIZE: %w", err)
	}
	advisorMaxBans, err := getEnvAsInt("ADVISOR_MAX_BANS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_MAX_BANS: %w", err)
	}
	advisorMaxPicksPerRole, err := getEnvAsInt("ADVISOR_MAX_PICKS_PER_ROLE", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_MAX_PICKS_PER_ROLE: %w", err)
	}
	advisorComfortMinGames, err := getEnvAsInt("ADVISOR_COMFORT_MIN_GAMES", 15)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_COMFORT_MIN_GAMES: %w", err)
	}
	advisorMasteryMinPoints, err := getEnvAsInt("ADVISOR_MASTERY_MIN_POINTS", 10000)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_MASTERY_MIN_POINTS: %w", err)
	}
	advisorSignatureWeight, err := getEnvAsFloat("ADVISOR_SIGNATURE_WEIGHT", 100)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_SIGNATURE_WEIGHT: %w", err)
	}
	advisorOverlapWeight, err := getEnvAsFloat("ADVISOR_OVERLAP_WEIGHT", 40)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_OVERLAP_WEIGHT: %w", err)
	}
	advisorComfortWeight, err := getEnvAsFloat("ADVISOR_COMFORT_WEIGHT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_COMFORT_WEIGHT: %w", err)
	}
	advisorMasteryWeight, err := getEnvAsFloat("ADVISOR_MASTERY_WEIGHT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ADVISOR_MASTERY_WEIGHT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "scout-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DataFile: getEnv("TOURNAMENT_FILE", "data/tournament.json"),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,

		OpggBaseURL:           strings.TrimRight(getEnv("OPGG_BASE_URL", "https://op.gg"), "/"),
		OpggRegion:            strings.ToLower(getEnv("OPGG_REGION", "na")),
		LeagueOfGraphsBaseURL: strings.TrimRight(getEnv("LEAGUEOFGRAPHS_BASE_URL", "https://www.leagueofgraphs.com"), "/"),
		RenewalEnabled:        renewalEnabled,

		RefreshWorkers:          refreshWorkers,
		ScrapeTimeout:           scrapeTimeout,
		ScrapeRequestTimeout:    scrapeRequestTimeout,
		ScrapeRequestsPerSecond: scrapeRPS,
		ScrapeBurst:             scrapeBurst,
		ScrapeMaxAttempts:       scrapeMaxAttempts,
		ScrapeRetryBaseDelay:    scrapeRetryBaseDelay,
		ScrapeUserAgent:         strings.TrimSpace(getEnv("SCRAPE_USER_AGENT", "")),

		ScrapeCircuitEnabled:        circuitEnabled,
		ScrapeCircuitFailureCount:   circuitFailureCount,
		ScrapeCircuitOpenTimeout:    circuitOpenTimeout,
		ScrapeCircuitHalfOpenMaxReq: circuitHalfOpenMaxReq,

		DDragonCacheTTL: ddragonCacheTTL,

		FlagOneTrickMinGames: flagOneTrickMinGames,
		FlagOneTrickShare:    flagOneTrickShare,
		FlagMainMinGames:     flagMainMinGames,
		FlagMainBaseRatio:    flagMainBaseRatio,
		FlagMainRatioStep:    flagMainRatioStep,
		FlagMainMinRatio:     flagMainMinRatio,

		AdvisorTopPoolSize:      advisorTopPoolSize,
		AdvisorMaxBans:          advisorMaxBans,
		AdvisorMaxPicksPerRole:  advisorMaxPicksPerRole,
		AdvisorComfortMinGames:  advisorComfortMinGames,
		AdvisorMasteryMinPoints: advisorMasteryMinPoints,
		AdvisorSignatureWeight:  advisorSignatureWeight,
		AdvisorOverlapWeight:    advisorOverlapWeight,
		AdvisorComfortWeight:    advisorComfortWeight,
		AdvisorMasteryWeight:    advisorMasteryWeight,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if strings.TrimSpace(cfg.DataFile) == "" {
		return Config{}, fmt.Errorf("TOURNAMENT_FILE cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
