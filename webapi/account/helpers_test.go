package account_test

import (
	"net/http"
	"testing"

	accountweb "github.com/amirasaad/eaglebank/webapi/account"
	"github.com/amirasaad/eaglebank/webapi/testutils"
	"github.com/stretchr/testify/require"
)

type httpResponse struct {
	*http.Response
}

func (r *httpResponse) requireStatus(t *testing.T, status int) {
	t.Helper()
	defer r.Body.Close() //nolint:errcheck
	require.Equal(t, status, r.StatusCode)
}

func (r *httpResponse) transaction(t *testing.T, status int) accountweb.TransactionResponse {
	t.Helper()
	require.Equal(t, status, r.StatusCode)
	var txn accountweb.TransactionResponse
	testutils.DecodeData(t, r.Response, &txn)
	return txn
}
