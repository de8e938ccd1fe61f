package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldPrefixesErrors(t *testing.T) {
	v := Field("logger.level", Required(), OneOf("debug", "info"))

	err := v("")
	require.Error(t, err)
	assert.Equal(t, "logger.level: this field is required", err.Error())

	err = v("verbose")
	require.Error(t, err)
	assert.Equal(t, "logger.level: must be one of: debug, info", err.Error())

	assert.NoError(t, v("info"))
}

func TestComposeFirstErrorWins(t *testing.T) {
	v := Compose(Lowercase(), MaxLength(3))

	err := v("ABCD")
	require.Error(t, err)
	assert.Equal(t, "must be lowercase", err.Error())

	err = v("abcd")
	require.Error(t, err)
	assert.Equal(t, "must be no more than 3 characters", err.Error())
}

func TestOptional(t *testing.T) {
	v := Optional(AbsoluteURL())

	assert.NoError(t, v(""))
	assert.NoError(t, v("   "))
	assert.NoError(t, v("https://fonts.googleapis.com/css2?family=Inter"))
	assert.Error(t, v("fonts.googleapis.com"))
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "https", in: "https://collector:4318/v1/traces"},
		{name: "http", in: "http://localhost:4318"},
		{name: "no scheme", in: "localhost:4318", wantErr: true},
		{name: "ftp", in: "ftp://example.com/file", wantErr: true},
		{name: "path only", in: "/v1/traces", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AbsoluteURL()(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
