package secretbridge

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/subscriptiondemo/lib/myerrors"
	"github.com/MarcGrol/subscriptiondemo/services/checkoutapi"
)

func TestFetchClientSecret(t *testing.T) {
	c := context.TODO()

	t.Run("Secret returned verbatim", func(t *testing.T) {
		for _, s := range []checkoutapi.ClientSecret{"cs_test_abc123_secret_xyz", " ", "cs_é\n"} {
			ctrl := gomock.NewController(t)
			source := NewMockSecretSource(ctrl)
			source.EXPECT().CreateClientSecret(gomock.Any()).Return(s, nil)

			secret, err := New(source).FetchClientSecret(c)

			assert.NoError(t, err)
			assert.Equal(t, s, secret)
			ctrl.Finish()
		}
	})

	t.Run("Empty secret is an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source := NewMockSecretSource(ctrl)
		source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret(""), nil)

		secret, err := New(source).FetchClientSecret(c)

		assert.ErrorIs(t, err, ErrSecretUnavailable)
		assert.Equal(t, 503, myerrors.GetHTTPStatus(err))
		assert.Empty(t, secret)
	})

	t.Run("Backend error is surfaced", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		backendErr := fmt.Errorf("stripe is down")
		source := NewMockSecretSource(ctrl)
		source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret(""), backendErr)

		_, err := New(source).FetchClientSecret(c)

		assert.ErrorIs(t, err, ErrSecretUnavailable)
		assert.ErrorIs(t, err, backendErr)
		assert.Equal(t, 503, myerrors.GetHTTPStatus(err))
	})

	t.Run("Every call reaches the backend", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		source := NewMockSecretSource(ctrl)
		gomock.InOrder(
			source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_1"), nil),
			source.EXPECT().CreateClientSecret(gomock.Any()).Return(checkoutapi.ClientSecret("cs_2"), nil),
		)
		sut := New(source)

		first, err := sut.FetchClientSecret(c)
		assert.NoError(t, err)
		second, err := sut.FetchClientSecret(c)
		assert.NoError(t, err)

		assert.Equal(t, checkoutapi.ClientSecret("cs_1"), first)
		assert.Equal(t, checkoutapi.ClientSecret("cs_2"), second)
	})

	t.Run("Failure is not retried", func(t *testing.T) {
		calls := 0
		sut := New(SourceFunc(func(c context.Context) (checkoutapi.ClientSecret, error) {
			calls++
			return "", errors.New("timeout")
		}))

		_, err := sut.FetchClientSecret(c)

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
