package hdmap

import "github.com/sirupsen/logrus"

var log = logrus.WithField("module", "hdmap")
