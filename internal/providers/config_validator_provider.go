package providers

import (
	"launchpad/internal/models"
	"launchpad/internal/structures"
	"path/filepath"
	"strings"

	"github.com/gookit/validate"
)

func init() {
	validate.AddValidator("deviceClass", func(val any) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		_, err := models.ParseDeviceClass(s)
		return err == nil
	})

	// localPath accepts a directory in the host OS's own syntax, drive
	// letters included.
	validate.AddValidator("localPath", func(val any) bool {
		s, ok := val.(string)
		if !ok || strings.TrimSpace(s) == "" || strings.ContainsRune(s, 0) {
			return false
		}
		return filepath.Clean(s) != "."
	})
}

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	return nil
}
