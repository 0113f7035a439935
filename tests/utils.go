package tests

import (
	"context"
	"io"
	"os"
	"strings"

	basex "github.com/basexdb/basex-go"
	"github.com/google/uuid"
)

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func testOptions() *basex.Options {
	return &basex.Options{
		Addr: GetEnv("BASEX_TEST_ADDR", "localhost:1984"),
		Auth: basex.Auth{
			Username: GetEnv("BASEX_TEST_USER", "admin"),
			Password: GetEnv("BASEX_TEST_PASSWORD", "admin"),
		},
	}
}

func getConnection() (*basex.Client, error) {
	return basex.Open(testOptions())
}

// tempDatabase creates a uniquely named database and returns a cleanup
// function dropping it.
func tempDatabase(ctx context.Context, client *basex.Client, input string) (string, func(), error) {
	name := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	var reader io.Reader
	if input != "" {
		reader = strings.NewReader(input)
	}
	if _, err := client.Create(ctx, name, reader); err != nil {
		return "", nil, err
	}
	cleanup := func() {
		client.Execute(ctx, "DROP DB "+name)
	}
	return name, cleanup, nil
}
