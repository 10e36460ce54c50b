package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
)

var newaddress = cli.Command{
	Name:   "address",
	Usage:  "generate the next receiving address",
	Action: newAddressAction,
}

var synckeyset = cli.Command{
	Name:   "sync",
	Usage:  "synchronize the public key set with the backend",
	Action: syncKeySetAction,
}

func newAddressAction(ctx *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	addr, err := svc.addressSvc.GenerateExternalAddress(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf(
		"address: %s\nindex: %d\nscript version: %d\n",
		addr.Address, addr.Index, addr.ScriptVersion,
	)
	return nil
}

func syncKeySetAction(ctx *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	if err := svc.addressSvc.SyncPublicKeySet(context.Background()); err != nil {
		return err
	}

	fmt.Println("public key set synchronized")
	return nil
}
