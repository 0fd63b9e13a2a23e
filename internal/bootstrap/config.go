package bootstrap

import (
	"fmt"
	"slices"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/fabric"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/mongodb/dlq"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/checkpoint"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/idempotency"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/outbox"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/proposal"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/transactionlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/userprofile"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/postgresql/wallet"
	adapterrabbitmq "github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/rabbitmq"
	adapterredis "github.com/goodness-exchange/gx-protocol-backend-sub010/internal/adapters/redis"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/schema"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/services/command"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/services/projection"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/internal/services/query"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/constant"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mcircuitbreaker"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mmongo"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mopentelemetry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mpostgres"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mprometheus"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mrabbitmq"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mredis"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mretry"
	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mzap"

	"github.com/prometheus/client_golang/prometheus"
)

const ApplicationName = "ledger-bridge"

// Config is the configuration struct for the bridge service.
type Config struct {
	EnvName  string `env:"ENV_NAME"`
	LogLevel string `env:"LOG_LEVEL"`

	PrimaryDBHost      string `env:"DB_HOST"`
	PrimaryDBUser      string `env:"DB_USER"`
	PrimaryDBPassword  string `env:"DB_PASSWORD"`
	PrimaryDBName      string `env:"DB_NAME"`
	PrimaryDBPort      string `env:"DB_PORT"`
	ReplicaDBHost      string `env:"DB_REPLICA_HOST"`
	ReplicaDBUser      string `env:"DB_REPLICA_USER"`
	ReplicaDBPassword  string `env:"DB_REPLICA_PASSWORD"`
	ReplicaDBName      string `env:"DB_REPLICA_NAME"`
	ReplicaDBPort      string `env:"DB_REPLICA_PORT"`
	MaxOpenConnections int    `env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConnections int    `env:"DB_MAX_IDLE_CONNS"`
	MigrationsPath     string `env:"DB_MIGRATIONS_PATH"`

	MongoURI        string `env:"MONGO_URI"`
	MongoDBHost     string `env:"MONGO_HOST"`
	MongoDBName     string `env:"MONGO_NAME"`
	MongoDBUser     string `env:"MONGO_USER"`
	MongoDBPassword string `env:"MONGO_PASSWORD"`
	MongoDBPort     string `env:"MONGO_PORT"`
	MaxPoolSize     int    `env:"MONGO_MAX_POOL_SIZE"`

	RedisURI string `env:"REDIS_URI"`

	RabbitURI      string `env:"RABBITMQ_URI"`
	RabbitExchange string `env:"RABBITMQ_EXCHANGE"`

	FabricNetwork            string `env:"FABRIC_NETWORK"`
	FabricChannel            string `env:"FABRIC_CHANNEL"`
	FabricChaincode          string `env:"FABRIC_CHAINCODE"`
	FabricMSPID              string `env:"FABRIC_MSP_ID"`
	FabricIdentityLabel      string `env:"FABRIC_IDENTITY_LABEL"`
	FabricWalletDir          string `env:"FABRIC_WALLET_DIR"`
	FabricPeerEndpoint       string `env:"FABRIC_PEER_ENDPOINT"`
	FabricOrdererEndpoint    string `env:"FABRIC_ORDERER_ENDPOINT"`
	FabricTLSEnabled         bool   `env:"FABRIC_TLS_ENABLED"`
	FabricTLSCert            string `env:"FABRIC_TLS_CERT"`
	FabricTLSKey             string `env:"FABRIC_TLS_KEY"`
	FabricTLSCACert          string `env:"FABRIC_TLS_CA_CERT"`
	FabricTLSServerName      string `env:"FABRIC_TLS_SERVER_NAME_OVERRIDE"`
	FabricSubmitTimeoutSecs  int    `env:"FABRIC_SUBMIT_TIMEOUT_SECONDS"`
	FabricEndorseTimeoutSecs int    `env:"FABRIC_ENDORSE_TIMEOUT_SECONDS"`

	BreakerFailureThreshold  int `env:"CIRCUIT_BREAKER_FAILURE_THRESHOLD"`
	BreakerResetTimeoutSecs  int `env:"CIRCUIT_BREAKER_RESET_TIMEOUT_SECONDS"`
	BreakerHalfOpenProbes    int `env:"CIRCUIT_BREAKER_HALF_OPEN_PROBE_COUNT"`

	SubmitterBatchSize      int `env:"SUBMITTER_BATCH_SIZE"`
	SubmitterMaxAttempts    int `env:"SUBMITTER_MAX_ATTEMPTS"`
	SubmitterPollIntervalMS int `env:"SUBMITTER_POLL_INTERVAL_MS"`
	SubmitterStaleSecs      int `env:"SUBMITTER_STALE_PROCESSING_SECONDS"`

	TenantID           string `env:"TENANT_ID"`
	ProjectorName      string `env:"PROJECTOR_NAME"`
	ProjectorStartBlk  int64  `env:"PROJECTOR_START_BLOCK"`
	ProjectionLagBlks  int64  `env:"PROJECTION_LAG_BUDGET_BLOCKS"`
	StrictSchema       bool   `env:"STRICT_SCHEMA"`
	HeartbeatThreshold int    `env:"HEALTH_HEARTBEAT_THRESHOLD_SECONDS"`

	ServerAddress string `env:"SERVER_ADDRESS"`

	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelServiceVersion      string `env:"OTEL_RESOURCE_SERVICE_VERSION"`
	OtelDeploymentEnv       string `env:"OTEL_RESOURCE_DEPLOYMENT_ENVIRONMENT"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`
}

// applyDefaults fills the knobs a local deployment can leave unset.
func (cfg *Config) applyDefaults() {
	if cfg.SubmitterBatchSize <= 0 {
		cfg.SubmitterBatchSize = 25
	}

	if cfg.SubmitterMaxAttempts <= 0 {
		cfg.SubmitterMaxAttempts = mretry.DefaultMaxRetries
	}

	if cfg.SubmitterPollIntervalMS <= 0 {
		cfg.SubmitterPollIntervalMS = 1000
	}

	if cfg.SubmitterStaleSecs <= 0 {
		cfg.SubmitterStaleSecs = 300
	}

	if cfg.FabricSubmitTimeoutSecs <= 0 {
		cfg.FabricSubmitTimeoutSecs = 30
	}

	if cfg.FabricEndorseTimeoutSecs <= 0 {
		cfg.FabricEndorseTimeoutSecs = 15
	}

	if cfg.BreakerFailureThreshold <= 0 {
		cfg.BreakerFailureThreshold = 5
	}

	if cfg.BreakerResetTimeoutSecs <= 0 {
		cfg.BreakerResetTimeoutSecs = 30
	}

	if cfg.BreakerHalfOpenProbes <= 0 {
		cfg.BreakerHalfOpenProbes = 3
	}

	if cfg.ProjectionLagBlks <= 0 {
		cfg.ProjectionLagBlks = 10
	}

	if cfg.HeartbeatThreshold <= 0 {
		cfg.HeartbeatThreshold = 60
	}

	if cfg.TenantID == "" {
		cfg.TenantID = "default"
	}

	if cfg.ProjectorName == "" {
		cfg.ProjectorName = "read-model"
	}

	if cfg.ServerAddress == "" {
		cfg.ServerAddress = ":3100"
	}

	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
}

// validate fails fast on configuration the process cannot run without.
func (cfg *Config) validate() error {
	if !slices.Contains(constant.Networks, cfg.FabricNetwork) {
		return fmt.Errorf("FABRIC_NETWORK must be one of %v, got %q", constant.Networks, cfg.FabricNetwork)
	}

	if cfg.FabricChannel == "" || cfg.FabricChaincode == "" {
		return fmt.Errorf("FABRIC_CHANNEL and FABRIC_CHAINCODE are required")
	}

	if cfg.FabricMSPID == "" || cfg.FabricIdentityLabel == "" || cfg.FabricWalletDir == "" {
		return fmt.Errorf("FABRIC_MSP_ID, FABRIC_IDENTITY_LABEL and FABRIC_WALLET_DIR are required")
	}

	if cfg.FabricPeerEndpoint == "" {
		return fmt.Errorf("FABRIC_PEER_ENDPOINT is required")
	}

	if cfg.PrimaryDBHost == "" || cfg.PrimaryDBName == "" {
		return fmt.Errorf("DB_HOST and DB_NAME are required")
	}

	return nil
}

// InitService assembles the whole bridge: connections, repositories, use
// cases and workers. Invalid config returns an error so main exits non-zero.
func InitService() (*Service, error) {
	cfg := &Config{}

	if err := pkg.SetConfigFromEnvVars(cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := mzap.InitializeLogger()

	telemetry := &mopentelemetry.Telemetry{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.OtelServiceVersion,
		DeploymentEnv:             cfg.OtelDeploymentEnv,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
	}

	metrics := mprometheus.NewMetrics(prometheus.DefaultRegisterer)

	postgreSourcePrimary := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.PrimaryDBHost, cfg.PrimaryDBUser, cfg.PrimaryDBPassword, cfg.PrimaryDBName, cfg.PrimaryDBPort)

	postgreSourceReplica := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.ReplicaDBHost, cfg.ReplicaDBUser, cfg.ReplicaDBPassword, cfg.ReplicaDBName, cfg.ReplicaDBPort)

	postgresConnection := &mpostgres.PostgresConnection{
		ConnectionStringPrimary: postgreSourcePrimary,
		ConnectionStringReplica: postgreSourceReplica,
		PrimaryDBName:           cfg.PrimaryDBName,
		ReplicaDBName:           cfg.ReplicaDBName,
		MigrationsPath:          cfg.MigrationsPath,
		Component:               ApplicationName,
		MaxOpenConnections:      cfg.MaxOpenConnections,
		MaxIdleConnections:      cfg.MaxIdleConnections,
		Logger:                  logger,
	}

	mongoSource := fmt.Sprintf("%s://%s:%s@%s:%s",
		cfg.MongoURI, cfg.MongoDBUser, cfg.MongoDBPassword, cfg.MongoDBHost, cfg.MongoDBPort)

	if cfg.MaxPoolSize <= 0 {
		cfg.MaxPoolSize = 100
	}

	mongoConnection := &mmongo.MongoConnection{
		ConnectionStringSource: mongoSource,
		Database:               cfg.MongoDBName,
		MaxPoolSize:            uint64(cfg.MaxPoolSize),
		Logger:                 logger,
	}

	breakerListener := &breakerMetricsListener{metrics: metrics, logger: logger}

	breaker := mcircuitbreaker.NewCircuitBreaker(mcircuitbreaker.Settings{
		ServiceName:        "fabric-gateway",
		FailureThreshold:   uint32(cfg.BreakerFailureThreshold),
		ResetTimeout:       time.Duration(cfg.BreakerResetTimeoutSecs) * time.Second,
		HalfOpenProbeCount: uint32(cfg.BreakerHalfOpenProbes),
		Listener:           breakerListener,
	})

	fabricConnection := &fabric.FabricConnection{
		Network:         cfg.FabricNetwork,
		Channel:         cfg.FabricChannel,
		Chaincode:       cfg.FabricChaincode,
		MSPID:           cfg.FabricMSPID,
		IdentityLabel:   cfg.FabricIdentityLabel,
		WalletDir:       cfg.FabricWalletDir,
		PeerEndpoint:    cfg.FabricPeerEndpoint,
		OrdererEndpoint: cfg.FabricOrdererEndpoint,
		TLS: fabric.TLSConfig{
			Enabled:            cfg.FabricTLSEnabled,
			CertPath:           cfg.FabricTLSCert,
			KeyPath:            cfg.FabricTLSKey,
			CACertPath:         cfg.FabricTLSCACert,
			ServerNameOverride: cfg.FabricTLSServerName,
		},
		EndorseTimeout: time.Duration(cfg.FabricEndorseTimeoutSecs) * time.Second,
		SubmitTimeout:  time.Duration(cfg.FabricSubmitTimeoutSecs) * time.Second,
		Logger:         logger,
	}

	fabricRepository := fabric.NewFabricGatewayRepository(
		fabricConnection,
		breaker,
		time.Duration(cfg.BreakerResetTimeoutSecs)*time.Second,
	)

	outboxRepository := outbox.NewOutboxPostgreSQLRepository(postgresConnection)
	checkpointRepository := checkpoint.NewCheckpointPostgreSQLRepository(postgresConnection)
	idempotencyRepository := idempotency.NewIdempotencyPostgreSQLRepository(postgresConnection)
	walletRepository := wallet.NewWalletPostgreSQLRepository(postgresConnection)
	userProfileRepository := userprofile.NewUserProfilePostgreSQLRepository(postgresConnection)
	transactionLogRepository := transactionlog.NewTransactionLogPostgreSQLRepository(postgresConnection)
	proposalRepository := proposal.NewProposalPostgreSQLRepository(postgresConnection)
	dlqRepository := dlq.NewDLQMongoDBRepository(mongoConnection)

	var idempotencyCache adapterredis.CacheRepository

	if cfg.RedisURI != "" {
		redisConnection := &mredis.RedisConnection{
			ConnectionStringSource: cfg.RedisURI,
			Logger:                 logger,
		}
		idempotencyCache = adapterredis.NewIdempotencyRedisRepository(redisConnection)
	}

	var producer adapterrabbitmq.ProducerRepository

	if cfg.RabbitURI != "" {
		rabbitConnection := &mrabbitmq.RabbitMQConnection{
			ConnectionStringSource: cfg.RabbitURI,
			Exchange:               cfg.RabbitExchange,
			Logger:                 logger,
		}
		producer = adapterrabbitmq.NewProducerRabbitMQ(rabbitConnection)
	}

	schemaRegistry, err := schema.NewRegistry(cfg.StrictSchema)
	if err != nil {
		return nil, err
	}

	commandUseCase := &command.UseCase{
		OutboxRepo:       outboxRepository,
		IdempotencyRepo:  idempotencyRepository,
		IdempotencyCache: idempotencyCache,
		FabricRepo:       fabricRepository,
		Commands:         command.DefaultCommandTable(),
		Metrics:          metrics,
		RetryPolicy:      mretry.DefaultOutboxConfig().WithMaxRetries(cfg.SubmitterMaxAttempts),
		MaxAttempts:      cfg.SubmitterMaxAttempts,
	}

	projectionUseCase := &projection.UseCase{
		Connection:         postgresConnection,
		CheckpointRepo:     checkpointRepository,
		WalletRepo:         walletRepository,
		UserProfileRepo:    userProfileRepository,
		TransactionLogRepo: transactionLogRepository,
		ProposalRepo:       proposalRepository,
		DLQRepo:            dlqRepository,
		Producer:           producer,
		SchemaRegistry:     schemaRegistry,
		Handlers:           projection.NewHandlerRegistry(),
		Metrics:            metrics,
		DLQRetry:           mretry.DefaultDLQConfig().WithMaxRetries(5).WithInitialBackoff(time.Second),
		TenantID:           cfg.TenantID,
		ProjectorName:      cfg.ProjectorName,
		Channel:            cfg.FabricChannel,
		StartBlock:         uint64(cfg.ProjectorStartBlk),
	}
	projectionUseCase.RegisterDefaultHandlers()

	queryUseCase := &query.UseCase{
		WalletRepo:         walletRepository,
		UserProfileRepo:    userProfileRepository,
		TransactionLogRepo: transactionLogRepository,
		ProposalRepo:       proposalRepository,
		CheckpointRepo:     checkpointRepository,
	}

	health := NewHealth(
		time.Duration(cfg.HeartbeatThreshold)*time.Second,
		uint64(cfg.ProjectionLagBlks),
		fabricRepository.BreakerState,
	)

	submitter := NewSubmitterWorker(commandUseCase, fabricRepository, health, cfg, logger)
	projector := NewProjectorWorker(projectionUseCase, fabricRepository, health, cfg, logger)
	server := NewServer(cfg, health, metrics, logger)

	return &Service{
		Submitter: submitter,
		Projector: projector,
		Server:    server,
		Query:     queryUseCase,
		Logger:    logger,
		Telemetry: telemetry,
	}, nil
}

// breakerMetricsListener exports breaker transitions to the state gauge.
type breakerMetricsListener struct {
	metrics *mprometheus.Metrics
	logger  mlog.Logger
}

func (l *breakerMetricsListener) OnCircuitBreakerStateChange(event mcircuitbreaker.StateChangeEvent) {
	l.metrics.SetBreakerState(string(event.ToState))
	l.logger.Warnf("Circuit breaker %s: %s -> %s", event.ServiceName, event.FromState, event.ToState)
}
