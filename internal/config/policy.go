package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/recruitment-docverify/internal/core/domain"
)

type policyFile struct {
	AutoVerify struct {
		MinConfidence *float64 `yaml:"min_confidence"`
		MinFieldRatio *float64 `yaml:"min_field_ratio"`
	} `yaml:"auto_verify"`
}

// LoadAutoVerifyPolicy reads thresholds from a YAML file. An empty path yields
// the defaults; keys absent from the file keep their default value.
func LoadAutoVerifyPolicy(path string) (domain.AutoVerifyPolicy, error) {
	policy := domain.DefaultAutoVerifyPolicy()
	if path == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return policy, domain.WrapError(domain.ErrConfiguration, "read auto-verify policy", err)
	}
	return parseAutoVerifyPolicy(raw)
}

func parseAutoVerifyPolicy(raw []byte) (domain.AutoVerifyPolicy, error) {
	policy := domain.DefaultAutoVerifyPolicy()

	var file policyFile
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return policy, domain.WrapError(domain.ErrConfiguration, "parse auto-verify policy", err)
	}

	if v := file.AutoVerify.MinConfidence; v != nil {
		policy.MinConfidence = *v
	}
	if v := file.AutoVerify.MinFieldRatio; v != nil {
		policy.MinFieldRatio = *v
	}
	if err := validatePolicy(policy); err != nil {
		return domain.DefaultAutoVerifyPolicy(), domain.WrapError(domain.ErrConfiguration, "validate auto-verify policy", err)
	}
	return policy, nil
}

func validatePolicy(policy domain.AutoVerifyPolicy) error {
	if policy.MinConfidence < 0 || policy.MinConfidence > 1 {
		return fmt.Errorf("min_confidence %.2f outside [0,1]", policy.MinConfidence)
	}
	if policy.MinFieldRatio < 0 || policy.MinFieldRatio > 1 {
		return fmt.Errorf("min_field_ratio %.2f outside [0,1]", policy.MinFieldRatio)
	}
	return nil
}
