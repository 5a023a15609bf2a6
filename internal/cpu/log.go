package cpu

// StepLogger receives one line of trace per executed instruction, mirroring
// the teacher's Logger interface (go/mgnes/log.go) used to optionally trace
// 6502 execution.
type StepLogger interface {
	Log(msg string)
}

type defaultLogger struct{}

func (defaultLogger) Log(msg string) {}

var (
	logger     StepLogger = defaultLogger{}
	logEnabled            = false
)

// SetLogger installs a StepLogger; pass nil to restore the no-op default.
func SetLogger(l StepLogger) {
	if l == nil {
		logger = defaultLogger{}
		return
	}
	logger = l
}

// SetLogEnable toggles whether Step emits trace lines at all.
func SetLogEnable(enable bool) {
	logEnabled = enable
}
