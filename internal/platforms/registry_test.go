package platforms

import (
	"testing"

	"pricesync/internal/logger"
	"pricesync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {

	t.Run("UnknownPlatformIsConfigurationError", func(t *testing.T) {
		_, err := Get(models.PlatformType("magento"))
		require.Error(t, err)

		var confErr *ConfigurationError
		require.ErrorAs(t, err, &confErr)
		assert.Equal(t, "magento", confErr.Platform)
	})

	t.Run("RegisteredFactoryIsResolved", func(t *testing.T) {
		called := false
		Register(models.PlatformType("testchannel"), func(creds models.Credentials, log *logger.Logger) (Client, error) {
			called = true
			return nil, nil
		})

		factory, err := Get(models.PlatformType("testchannel"))
		require.NoError(t, err)

		_, err = factory(models.Credentials{}, logger.New("error"))
		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "19.99", FormatPrice(19.99))
	assert.Equal(t, "19.90", FormatPrice(19.9))
	assert.Equal(t, "20.00", FormatPrice(20))
	assert.Equal(t, "0.01", FormatPrice(0.005))
}
