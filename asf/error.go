package asf

import "errors"

var (
	ErrNoScenes       = errors.New("no scenes found")
	ErrOrbitAmbiguous = errors.New("multiple relative orbits in search result")
	ErrNotScenePair   = errors.New("scene dates do not form a pair")
	ErrNoListFile     = errors.New("no scene list file found")
	ErrNoAcquisitions = errors.New("no acquisitions in scene list")
	ErrEmptyIndex     = errors.New("empty orbit index")
	ErrBadStatus      = errors.New("bad http status")
)
