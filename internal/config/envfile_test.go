package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEnvFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	cfg := Default()
	cfg.ProgramID = tokenP
	cfg.SaleAccount = wsol
	cfg.SalePrice = "0.02"

	require.NoError(t, WriteEnvFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM_PROGRAM_ID="+tokenP+"\n"+
		"TOKEN_SALE_PRICE=0.02\n"+
		"TOKEN_SALE_PROGRAM_ACCOUNT_PUBKEY="+wsol+"\n", string(data))
	assert.NotContains(t, string(data), "PRIVATE_KEY")

	t.Setenv(EnvSaleAccount, "")
	t.Setenv(EnvSalePrice, "")
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, wsol, os.Getenv(EnvSaleAccount))
	assert.Equal(t, "0.02", os.Getenv(EnvSalePrice))
}

func TestWriteEnvFile_KeepsUnownedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	original := "# sale settings\n" +
		"CUSTOM_PROGRAM_ID=" + tokenP + "\n" +
		"SELLER_PRIVATE_KEY=[1,2,3]\n" +
		"\n" +
		"BUYER_PRIVATE_KEY=[4,5,6]\n" +
		"TOKEN_SALE_PRICE=0.01\n"
	require.NoError(t, os.WriteFile(path, []byte(original), 0o600))

	for _, v := range envVars {
		t.Setenv(v.name, "")
	}
	t.Setenv("SELLER_PRIVATE_KEY", "")
	t.Setenv("BUYER_PRIVATE_KEY", "")
	require.NoError(t, LoadEnvFile(path))

	cfg := FromEnv()
	require.NoError(t, cfg.Set(EnvSalePrice, "0.02"))
	require.NoError(t, cfg.Set(EnvSaleAccount, wsol))
	require.NoError(t, WriteEnvFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# sale settings\n"+
		"CUSTOM_PROGRAM_ID="+tokenP+"\n"+
		"SELLER_PRIVATE_KEY=[1,2,3]\n"+
		"\n"+
		"BUYER_PRIVATE_KEY=[4,5,6]\n"+
		"TOKEN_SALE_PRICE=0.02\n"+
		"TOKEN_SALE_PROGRAM_ACCOUNT_PUBKEY="+wsol+"\n", string(data))
}

func TestWriteEnvFile_SkipsUnsuppliedDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	cfg := Default()
	require.NoError(t, cfg.Set(EnvRPCURL, "https://api.devnet.solana.com"))

	require.NoError(t, WriteEnvFile(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RPCURL=https://api.devnet.solana.com\n", string(data))
	assert.True(t, cfg.Supplied(EnvRPCURL))
	assert.False(t, cfg.Supplied(EnvWSURL))
}

func TestLoadEnvFile_DoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n\nRPCURL=http://file\nnot a pair\nWSURL=\"ws://file\"\n"), 0o600))
	t.Setenv(EnvRPCURL, "http://env")
	t.Setenv(EnvWSURL, "")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "http://env", os.Getenv(EnvRPCURL))
	assert.Equal(t, "ws://file", os.Getenv(EnvWSURL))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "none")))
}
