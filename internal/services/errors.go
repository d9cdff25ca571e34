package services

import (
	"errors"

	"github.com/tripwise/prompt-svc/internal/providers/llm"
	"github.com/tripwise/prompt-svc/internal/utils"
)

// MsgDatabase is the only persistence detail shown to clients.
const MsgDatabase = "Error with database"

func dbErr(op, msg string, err error) error {
	return utils.E(utils.CodeInternal, op, msg, err)
}

// providerErr keeps the llm error in the chain. An invalid mode is a caller
// bug, not an upstream failure.
func providerErr(op string, err error) error {
	if errors.Is(err, llm.ErrInvalidMode) {
		return utils.E(utils.CodeInvalidArgument, op, "invalid prompt mode", err)
	}
	return utils.E(utils.CodeUpstream, op, "completion failed", err)
}
