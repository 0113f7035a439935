package tests

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultBaseXVersion = "9.7.3"

func baseXTestVersion() string {
	return GetEnv("BASEX_VERSION", defaultBaseXVersion)
}

func TestMain(m *testing.M) {
	useDocker := strings.ToLower(GetEnv("BASEX_USE_DOCKER", "true"))
	if useDocker == "false" || os.Getenv("BASEX_TEST_ADDR") != "" {
		fmt.Printf("Using external BaseX server for IT tests - %s\n",
			GetEnv("BASEX_TEST_ADDR", "localhost:1984"))
		os.Exit(m.Run())
	}

	ctx := context.Background()
	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		fmt.Printf("Docker is not running and no BaseX connection details were provided. Skipping IT tests: %s\n", err)
		os.Exit(0)
	}
	if err := provider.Health(ctx); err != nil {
		fmt.Printf("Docker is not running and no BaseX connection details were provided. Skipping IT tests: %s\n", err)
		os.Exit(0)
	}
	fmt.Printf("Using Docker for IT tests\n")

	req := testcontainers.ContainerRequest{
		Image:        fmt.Sprintf("basex/basexhttp:%s", baseXTestVersion()),
		ExposedPorts: []string{"1984/tcp"},
		WaitingFor:   wait.ForListeningPort("1984/tcp"),
	}
	basexContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		// can't test without container
		panic(err)
	}

	p, _ := basexContainer.MappedPort(ctx, "1984")
	os.Setenv("BASEX_TEST_ADDR", "localhost:"+p.Port())
	defer basexContainer.Terminate(ctx) //nolint
	os.Exit(m.Run())
}
