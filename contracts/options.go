package contracts

import (
	"io"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"
)

// Contract names as used in "Name:Function" transaction names
const (
	RegistryContractName   = "Registry"
	HealthDataContractName = "HealthData"
	ScoringContractName    = "Scoring"
	PermissionContractName = "Permission"
	GatewayContractName    = "Gateway"
)

// Options configures the contracts.
type Options struct {
	Logger    *logrus.Logger
	Subsystem SubsystemFactory
}

func (o Options) runtime() *runtime {
	logger := o.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &runtime{log: logger, subsystem: o.Subsystem}
}

// Contracts groups every contract of the chaincode.
type Contracts struct {
	Registry   *RegistryContract
	HealthData *HealthDataContract
	Scoring    *ScoringContract
	Permission *PermissionContract
	Gateway    *GatewayContract
}

// New builds the contracts sharing one runtime.
func New(opts Options) *Contracts {
	rt := opts.runtime()
	return &Contracts{
		Registry: &RegistryContract{
			Contract: contractapi.Contract{Name: RegistryContractName},
			rt:       rt,
		},
		HealthData: &HealthDataContract{
			Contract: contractapi.Contract{Name: HealthDataContractName},
			rt:       rt,
		},
		Scoring: &ScoringContract{
			Contract: contractapi.Contract{Name: ScoringContractName},
			rt:       rt,
		},
		Permission: &PermissionContract{
			Contract: contractapi.Contract{Name: PermissionContractName},
			rt:       rt,
		},
		Gateway: &GatewayContract{
			Contract: contractapi.Contract{Name: GatewayContractName},
			rt:       rt,
		},
	}
}

// List returns the contracts in registration order. The first one is the
// default contract for unqualified transaction names.
func (c *Contracts) List() []contractapi.ContractInterface {
	return []contractapi.ContractInterface{
		c.Registry,
		c.HealthData,
		c.Scoring,
		c.Permission,
		c.Gateway,
	}
}
