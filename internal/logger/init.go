package logger

import "github.com/sirupsen/logrus"

// Category loggers. Default to stderr so packages stay usable in tests;
// Init swaps in the rotating writers.
var (
	Payment = logrus.New()
	Request = logrus.New()
)

func Init() {
	Payment = NewLogger("payment")
	Request = NewLogger("request")
}
