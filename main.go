package main

import (
	"log"

	"github.com/fundihub/fundihub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
