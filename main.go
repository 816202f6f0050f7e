// main is the entry point for the basket CLI.
package main

import (
	"github.com/huangsam/basket/cmd"
	"github.com/huangsam/basket/internal/contract"
	"github.com/huangsam/basket/internal/iocache"
)

func main() {
	defer iocache.CloseStores()
	if err := cmd.Execute(); err != nil {
		iocache.CloseStores()
		contract.LogFatal("Error", err)
	}
}
