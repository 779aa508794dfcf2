package probe

import (
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "probe")
