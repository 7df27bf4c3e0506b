package main

import (
	"fmt"
	"os"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"

	"github.com/haven-health-passport/chaincode/risk-scores/config"
	"github.com/haven-health-passport/chaincode/risk-scores/contracts"
	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}
	logger := cfg.NewLogger()

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("Risk score chaincode stopped")
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	model, err := fhe.LoadModel(cfg.ScoringModel)
	if err != nil {
		return err
	}

	cs := contracts.New(contracts.Options{
		Logger:    logger,
		Subsystem: contracts.CoprocessorFactory(model),
	})

	chaincode, err := contractapi.NewChaincode(cs.List()...)
	if err != nil {
		return fmt.Errorf("error creating risk score chaincode: %v", err)
	}
	chaincode.Info.Title = "risk-scores"
	chaincode.Info.Version = model.Version

	fields := logrus.Fields{"scoringModel": model.Version, "service": cfg.AsService()}
	if !cfg.AsService() {
		logger.WithFields(fields).Info("Starting risk score chaincode")
		return chaincode.Start()
	}

	tlsProps, err := tlsProperties(cfg.TLS)
	if err != nil {
		return err
	}
	server := &shim.ChaincodeServer{
		CCID:     cfg.ChaincodeID,
		Address:  cfg.ServerAddress,
		CC:       chaincode,
		TLSProps: tlsProps,
	}

	fields["address"] = cfg.ServerAddress
	logger.WithFields(fields).Info("Starting risk score chaincode server")
	return server.Start()
}

func tlsProperties(cfg config.TLS) (shim.TLSProperties, error) {
	if cfg.Disabled {
		return shim.TLSProperties{Disabled: true}, nil
	}

	key, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("failed to read TLS key: %v", err)
	}
	cert, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return shim.TLSProperties{}, fmt.Errorf("failed to read TLS certificate: %v", err)
	}

	var clientCACerts []byte
	if cfg.ClientCACertPath != "" {
		clientCACerts, err = os.ReadFile(cfg.ClientCACertPath)
		if err != nil {
			return shim.TLSProperties{}, fmt.Errorf("failed to read client CA certificate: %v", err)
		}
	}

	return shim.TLSProperties{
		Disabled:      false,
		Key:           key,
		Cert:          cert,
		ClientCACerts: clientCACerts,
	}, nil
}
