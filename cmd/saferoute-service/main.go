package main

import (
	"github.com/joho/godotenv"

	"github.com/shieldnav/saferoute-service/internal/saferoute"
)

func main() {
	_ = godotenv.Load()

	s := saferoute.New()
	s.Logger.Info("starting saferoute service")
	s.Start()
}
