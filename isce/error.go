package isce

import "errors"

var (
	ErrTopsAppNotFound = errors.New("topsApp.py not found in PATH")
	ErrNoSlcFiles      = errors.New("no slc files found")
	ErrNotScenePair    = errors.New("slc files do not form a date pair")
)
