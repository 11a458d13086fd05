package genesis

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func validGenesis() Genesis {
	return Genesis{
		InitialIndex:   big.NewInt(1_000_000_000),
		FirstEpochTime: 1000,
		Roles: Roles{
			Governor: common.BytesToAddress([]byte("governor")),
			Guardian: common.BytesToAddress([]byte("guardian")),
			Policy:   common.BytesToAddress([]byte("policy")),
			Vault:    common.BytesToAddress([]byte("vault")),
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validGenesis().Validate())

	g := validGenesis()
	g.InitialIndex = nil
	require.Error(t, g.Validate())

	g = validGenesis()
	g.InitialIndex = new(big.Int)
	require.Error(t, g.Validate())

	g = validGenesis()
	g.FirstEpochTime = 0
	require.Error(t, g.Validate())

	g = validGenesis()
	g.Roles.Governor = common.Address{}
	require.Error(t, g.Validate())

	g = validGenesis()
	g.Roles.Vault = common.Address{}
	require.Error(t, g.Validate())
}
