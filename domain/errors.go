package domain

import "errors"

var ErrSiteNotFound = errors.New("site not found")
