package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nautilus-wallet/nautilus-daemon/internal/core/domain"
)

var requestswap = cli.Command{
	Name:  "requestswap",
	Usage: "request a submarine swap quote for a lightning invoice",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "invoice",
			Usage:    "the lightning invoice to pay",
			Required: true,
		},
		&cli.IntFlag{
			Name:  "expiration-blocks",
			Usage: "requested expiration of the swap in blocks",
			Value: 144,
		},
	},
	Action: requestSwapAction,
}

var swapfee = cli.Command{
	Name:  "swapfee",
	Usage: "compute the lightning fee for a known swap",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "swap",
			Usage:    "the swap uuid",
			Required: true,
		},
		&cli.Int64Flag{
			Name:     "onchain-fee",
			Usage:    "the on-chain fee of the funding transaction in satoshis",
			Required: true,
		},
	},
	Action: swapFeeAction,
}

var listswaps = cli.Command{
	Name:   "listswaps",
	Usage:  "list all known swaps",
	Action: listSwapsAction,
}

func requestSwapAction(ctx *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	swap, err := svc.swapSvc.RequestSwap(
		context.Background(),
		ctx.String("invoice"),
		ctx.Int("expiration-blocks"),
	)
	if err != nil {
		return err
	}

	fmt.Printf(
		"swap: %s\nfunding address: %s\namount: %d sats\ndebt type: %s\n"+
			"total fees: %d sats\nexpires at: %s\n",
		swap.SwapUuid,
		swap.FundingOutput.OutputAddress,
		swap.FundingOutput.OutputAmount,
		swap.DebtType(),
		swap.Fees.Total(),
		swap.ExpiresAt,
	)
	return nil
}

func swapFeeAction(ctx *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	swap, err := svc.swapSvc.GetSwap(context.Background(), ctx.String("swap"))
	if err != nil {
		return err
	}

	fee, err := svc.swapSvc.LightningFee(
		swap, domain.Satoshis(ctx.Int64("onchain-fee")),
	)
	if err != nil {
		return err
	}

	fmt.Printf("lightning fee: %d sats\n", fee)
	return nil
}

func listSwapsAction(ctx *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	swaps, err := svc.swapSvc.ListSwaps(context.Background())
	if err != nil {
		return err
	}

	for _, swap := range swaps {
		settled := "pending"
		if swap.IsSettled() {
			settled = "settled"
		}
		fmt.Printf("%s  %s  %d sats  %s\n",
			swap.SwapUuid, swap.DebtType(),
			swap.FundingOutput.OutputAmount, settled,
		)
	}
	return nil
}
