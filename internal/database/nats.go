package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNATS establishes a connection to the NATS server used for event fan-out.
func ConnectNATS(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("voxera-api"))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
