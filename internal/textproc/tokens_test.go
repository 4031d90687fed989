package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaccard(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Jaccard("", "  "))
	assert.Equal(t, 1.0, Jaccard("Pay rent.", "pay RENT"))
	assert.Equal(t, 0.0, Jaccard("alpha beta", "gamma delta"))
	assert.InDelta(t, 1.0/3.0, Jaccard("alpha beta", "beta gamma"), 1e-9)
	assert.Equal(t, 0.0, Jaccard("", "something"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pay the rent.", Normalize("  Pay\tthe \n RENT. "))
}

func TestKeyPhrases(t *testing.T) {
	t.Parallel()

	text := "The Licensee shall pay royalties. Royalties are calculated quarterly; royalties accrue daily. The licensee reports."
	got := KeyPhrases(text, 3, 5)

	assert.Equal(t, []string{"royalties", "licensee", "calculated"}, got)
	assert.Empty(t, KeyPhrases("Pay rent.", 3, 5))
	assert.Nil(t, KeyPhrases(text, 0, 5))
}
