package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{
		FabricNetwork:       "testnet",
		FabricChannel:       "gxchannel",
		FabricChaincode:     "gxcoin",
		FabricMSPID:         "GxMSP",
		FabricIdentityLabel: "partner-admin",
		FabricWalletDir:     "/var/lib/gx/wallet",
		FabricPeerEndpoint:  "peer0.gx.internal:7051",
		PrimaryDBHost:       "localhost",
		PrimaryDBName:       "gx_bridge",
	}
	cfg.applyDefaults()

	return cfg
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().validate())
}

func TestConfig_Validate_RejectsUnknownNetwork(t *testing.T) {
	cfg := validConfig()
	cfg.FabricNetwork = "staging"

	err := cfg.validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "FABRIC_NETWORK")
}

func TestConfig_Validate_RequiresChannelAndChaincode(t *testing.T) {
	cfg := validConfig()
	cfg.FabricChannel = ""

	assert.Error(t, cfg.validate())
}

func TestConfig_Validate_RequiresWalletIdentity(t *testing.T) {
	cfg := validConfig()
	cfg.FabricWalletDir = ""

	assert.Error(t, cfg.validate())
}

func TestConfig_Validate_RequiresDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.PrimaryDBHost = ""

	assert.Error(t, cfg.validate())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, 25, cfg.SubmitterBatchSize)
	assert.Equal(t, 1000, cfg.SubmitterPollIntervalMS)
	assert.Equal(t, 5, cfg.BreakerFailureThreshold)
	assert.Equal(t, 3, cfg.BreakerHalfOpenProbes)
	assert.Equal(t, "default", cfg.TenantID)
	assert.Equal(t, ":3100", cfg.ServerAddress)
}
