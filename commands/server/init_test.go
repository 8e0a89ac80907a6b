package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

func TestInit(t *testing.T) {
	home, err := ioutil.TempDir("", "bazaar-init")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	gen := func(args []string) (json.RawMessage, error) {
		return json.RawMessage(`{"demo": "seeded"}`), nil
	}

	err = InitCmd(gen, log.NewNopLogger(), home, nil)
	require.NoError(t, err)

	genFile := filepath.Join(home, "config", "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	require.NoError(t, err)

	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(bz, &doc))
	assert.Equal(t, `{"demo": "seeded"}`, string(doc["app_state"]))
	assert.NotEmpty(t, doc["chain_id"])

	// a second run must keep the existing files
	err = InitCmd(nil, log.NewNopLogger(), home, nil)
	require.NoError(t, err)
	bz2, err := ioutil.ReadFile(genFile)
	require.NoError(t, err)
	var doc2 GenesisDoc
	require.NoError(t, json.Unmarshal(bz2, &doc2))
	assert.Equal(t, doc["chain_id"], doc2["chain_id"])
}

type countingInit struct {
	called int
}

var _ bazaar.Initializer = (*countingInit)(nil)

func (c *countingInit) FromGenesis(opts bazaar.Options, kv bazaar.KVStore) error {
	c.called++
	if _, ok := opts["broken"]; ok {
		return errors.Wrap(errors.ErrInput, "broken")
	}
	return nil
}

func TestValidateGenesis(t *testing.T) {
	good, err := ioutil.TempDir("", "bazaar-genesis")
	require.NoError(t, err)
	defer os.RemoveAll(good)

	goodFile := filepath.Join(good, "genesis.json")
	content := []byte(`{"chain_id": "test-chain-1", "app_state": {"cash": []}}`)
	require.NoError(t, ioutil.WriteFile(goodFile, content, 0600))

	badFile := filepath.Join(good, "broken.json")
	content = []byte(`{"chain_id": "test-chain-1", "app_state": {"broken": {}}}`)
	require.NoError(t, ioutil.WriteFile(badFile, content, 0600))

	var ini countingInit
	require.NoError(t, ValidateGenesis(&ini, []string{goodFile}))
	assert.Equal(t, 1, ini.called)

	err = ValidateGenesis(&ini, []string{goodFile, badFile})
	assert.Error(t, err)
	assert.Equal(t, 3, ini.called)
}
