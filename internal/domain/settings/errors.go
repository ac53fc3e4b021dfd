package settings

import "github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"

var ErrSettingsNotFound = apperror.New(apperror.KindNotFound, "hr settings not found")
