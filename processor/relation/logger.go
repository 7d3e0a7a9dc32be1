package relation

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "relation")
