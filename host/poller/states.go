package poller

type state int

const (
	idle    state = iota // The poller service has not been started yet.
	polling              // The poller service is repeatedly polling its feed for records.
	stopped              // The poller service was stopped or reached its record cap.
	failed               // The poller service halted because its feed reported a fatal error.
)

func (o state) String() string {
	return [...]string{"idle", "polling", "stopped", "failed"}[o]
}
