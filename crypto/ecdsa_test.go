// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignRecoverRoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	assert.NoError(t, err)

	hash := DomainHash(AccountDomainTag, []byte("hello"))
	sig, err := priv.Sign(hash)
	assert.NoError(t, err)

	recovered, err := Recover(hash, sig)
	assert.NoError(t, err)
	assert.Equal(t, priv.SignerId(), recovered)
	assert.True(t, Verify(hash, sig, priv.SignerId()))
}

func TestPureRecoverMatchesSigner(t *testing.T) {
	priv, err := GenerateKey()
	assert.NoError(t, err)

	hash := DomainHash(EntityDomainTag, []byte("frame"))
	sig, err := priv.Sign(hash)
	assert.NoError(t, err)

	recovered, err := PureRecover(hash, sig)
	assert.NoError(t, err)
	assert.Equal(t, priv.SignerId(), recovered)
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	privA, _ := GenerateKey()
	privB, _ := GenerateKey()

	hash := DomainHash(FrameDomainTag, []byte("x"))
	sig, _ := privA.Sign(hash)

	assert.False(t, Verify(hash, sig, privB.SignerId()))
}
