package helper

// Result menggantikan flash message: hasil operasi domain yang bisa
// gagal karena state (bukan karena infrastruktur).
type Result struct {
	Status  ResultStatus `json:"status"`
	Message string       `json:"message"`
}

type ResultStatus string

const (
	StatusOk    ResultStatus = "ok"
	StatusError ResultStatus = "error"
)

func Ok(message string) Result {
	return Result{Status: StatusOk, Message: message}
}

func Fail(message string) Result {
	return Result{Status: StatusError, Message: message}
}

func (r Result) OK() bool { return r.Status == StatusOk }
