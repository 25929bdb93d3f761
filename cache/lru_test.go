// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_GetOrLoad(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key interface{}) (interface{}, error) {
		loads++
		return key.(string) + "!", nil
	}

	v, err := c.GetOrLoad("a", loader)
	require.NoError(t, err)
	assert.Equal(t, "a!", v)

	v, err = c.GetOrLoad("a", loader)
	require.NoError(t, err)
	assert.Equal(t, "a!", v)
	assert.Equal(t, 1, loads)

	_, hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	// evicts "a"
	c.GetOrLoad("b", loader)
	c.GetOrLoad("c", loader)
	c.GetOrLoad("a", loader)
	assert.Equal(t, 4, loads)
}

func TestLRU_LoaderError(t *testing.T) {
	c, err := NewLRU(1)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = c.GetOrLoad(1, func(interface{}) (interface{}, error) { return nil, boom })
	assert.Equal(t, boom, err)
	assert.Equal(t, 0, c.Len())

	_, err = NewLRU(0)
	assert.Error(t, err)
}
