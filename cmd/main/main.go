package main

import (
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Fatalf("❌ %v", err)
	}
}
