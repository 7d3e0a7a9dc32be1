package ahead

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "ahead")
