package resolver

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "resolver")
