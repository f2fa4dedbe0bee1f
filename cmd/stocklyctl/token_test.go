package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/SamerElhamdo/stockly/internal/infrastructure/auth"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenIssue(t *testing.T) {
	jwtCfg := config.JWTConfig{
		Secret:                "cli-test-secret-key-of-32-characters",
		Issuer:                "stockly-test",
		AccessTokenExpiration: time.Hour,
	}
	state = cliState{cfg: &config.Config{JWT: jwtCfg}, log: zap.NewNop()}
	t.Cleanup(func() { state = cliState{} })

	companyID, userID := uuid.New(), uuid.New()
	require.NoError(t, tokenIssueCmd.Flags().Set("company", companyID.String()))
	require.NoError(t, tokenIssueCmd.Flags().Set("user", userID.String()))
	require.NoError(t, tokenIssueCmd.Flags().Set("ttl", "10m"))

	var out, errOut bytes.Buffer
	tokenIssueCmd.SetOut(&out)
	tokenIssueCmd.SetErr(&errOut)
	require.NoError(t, runTokenIssue(tokenIssueCmd, nil))

	claims, err := auth.NewJWTService(jwtCfg).ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	gotCompany, gotUser, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, companyID, gotCompany)
	assert.Equal(t, userID, gotUser)
	assert.Contains(t, errOut.String(), "expires at")
}

func TestUUIDFlag_Invalid(t *testing.T) {
	require.NoError(t, balancesRecomputeCmd.Flags().Set("company", "not-a-uuid"))
	_, err := uuidFlag(balancesRecomputeCmd, "company")
	assert.ErrorContains(t, err, "invalid --company")
}
