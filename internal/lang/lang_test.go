package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The Client shall pay the fee.", English},
		{"empty", "", English},
		{"hindi", "यह अनुबंध भुगतान के लिए है", Hindi},
		{"mixed", "यह अनुबंध भुगतान के लिए है and payment", Mixed},
		{"mostly english", "This agreement between the parties covers payment terms (भुगतान)", English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("भुगतान ₹ ५०,००० है")
	assert.Equal(t, "भुगतान (payment) ₹ 50,000 है", got)

	assert.Equal(t, "plain text", Normalize("plain text"))
}

func TestNormalize_NFC(t *testing.T) {
	assert.Equal(t, "caf\u00e9", Normalize("cafe\u0301"))
}

func TestPrepare(t *testing.T) {
	language, text := Prepare("The Vendor shall deliver goods.")
	assert.Equal(t, English, language)
	assert.Equal(t, "The Vendor shall deliver goods.", text)

	language, text = Prepare("दायित्व सीमित है")
	assert.Equal(t, Hindi, language)
	assert.Contains(t, text, "दायित्व (liability)")
}
