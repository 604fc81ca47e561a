package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrimaryBaseURLIsBuilderDerived(t *testing.T) {
	backend := Backend{
		Scheme:     "https",
		Host:       "api.example.com",
		PathPrefix: "/api",
	}
	require.Equal(t, "https://api.example.com/api", backend.PrimaryBaseURL())

	backend.Port = "8443"
	require.Equal(t, "https://api.example.com:8443/api", backend.PrimaryBaseURL())
}

func TestPrimaryBaseURLTrimsTrailingSlash(t *testing.T) {
	backend := Backend{
		Scheme:     "http",
		Host:       "localhost",
		Port:       "8000",
		PathPrefix: "/api/",
	}
	require.Equal(t, "http://localhost:8000/api", backend.PrimaryBaseURL())
}

func TestFallbackBaseURLIsVerbatim(t *testing.T) {
	backend := Backend{
		Scheme:       "https",
		Host:         "api.example.com",
		PathPrefix:   "/api",
		FallbackBase: "https://api.example.com/v1/api/",
	}
	require.Equal(t, "https://api.example.com/v1/api", backend.FallbackBaseURL())
}

func TestFallbackDefaultsToPrimary(t *testing.T) {
	backend := Backend{
		Scheme:     "https",
		Host:       "api.example.com",
		PathPrefix: "/api",
	}
	require.Equal(t, backend.PrimaryBaseURL(), backend.FallbackBaseURL())
}
