package constant

// Fabric network names. The selected network picks the connection profile
// and the wallet directory by convention.
const (
	NetworkDev     = "dev"
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
)

// Networks lists every network the process accepts at startup.
var Networks = []string{NetworkDev, NetworkTestnet, NetworkMainnet}
