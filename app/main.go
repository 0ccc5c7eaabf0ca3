package main

import (
	"flag"

	"github.com/ColdToo/ColdPBFT/config"
	"github.com/ColdToo/ColdPBFT/consensus"
	"github.com/ColdToo/ColdPBFT/log"
	"github.com/ColdToo/ColdPBFT/timing"
	"github.com/ColdToo/ColdPBFT/validator"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the local node config file")
	flag.Parse()

	config.InitConfig(*configPath)
	log.InitLog(config.GetZapConf())

	nodeConf := config.GetNodeConf()
	client := validator.NewClient(nodeConf.ValidatorEndpoint, nodeConf.ConnectTimeout)

	pbftConf := config.DefaultPbftConfig()
	if nodeConf.Storage != "" {
		pbftConf.Storage = nodeConf.Storage
	}

	// Settings are read at the chain head so every node bootstrapping at
	// the same block derives the same configuration.
	head := timing.RetryUntilOk(pbftConf.ExponentialRetryBase, pbftConf.ExponentialRetryMax,
		func() (consensus.BlockID, error) {
			return client.ChainHead()
		})

	pbftConf.LoadSettings(head, client)

	// The record is read-only from here on; ownership passes to the engine.
	log.Infof("pbft config loaded: members=%d storage=%s idle_timeout=%v commit_timeout=%v view_change_duration=%v",
		len(pbftConf.Members), pbftConf.Storage, pbftConf.IdleTimeout,
		pbftConf.CommitTimeout, pbftConf.ViewChangeDuration)
}
