package crosswalk

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "crosswalk")
