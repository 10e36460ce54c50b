package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
)

var rates = cli.Command{
	Name:   "rates",
	Usage:  "show the current fee and exchange rate windows",
	Action: ratesAction,
}

func ratesAction(ctx *cli.Context) error {
	svc, err := buildServices()
	if err != nil {
		return err
	}
	defer svc.close()

	data, err := svc.realtimeSvc.Fetch(context.Background())
	if err != nil {
		return err
	}

	targets := make([]int, 0, len(data.FeeWindow.FeesByConfTarget))
	for target := range data.FeeWindow.FeesByConfTarget {
		targets = append(targets, target)
	}
	sort.Ints(targets)

	fmt.Println("fee window (sats/vbyte):")
	for _, target := range targets {
		fmt.Printf("  %d blocks: %s\n", target, data.FeeWindow.FeesByConfTarget[target])
	}

	currencies := make([]string, 0, len(data.ExchangeRateWindow.RatesByCurrency))
	for currency := range data.ExchangeRateWindow.RatesByCurrency {
		currencies = append(currencies, currency)
	}
	sort.Strings(currencies)

	fmt.Println("exchange rates:")
	for _, currency := range currencies {
		fmt.Printf("  %s: %s\n", currency, data.ExchangeRateWindow.RatesByCurrency[currency])
	}
	return nil
}
