package resumable

type Marker uint8

const Fresh Marker = 0

type ID uint8

type Status int

const (
	Suspended Status = iota
	Finished
)

type Result[T any] struct {
	Status Status
	Value  T
}

type Stack interface{}

type Frame[T any] struct{}

func Begin[T any](s Stack, id ID) Frame[T] { return Frame[T]{} }
func (f Frame[T]) Marker() Marker          { return Fresh }
func (f Frame[T]) Suspend() Result[T]      { return Result[T]{Status: Suspended} }
func (f Frame[T]) End() Result[T]          { return Result[T]{Status: Finished} }

type Thread struct{}

func (t *Thread) Begin() Marker   { return Fresh }
func (t *Thread) Suspend() Status { return Suspended }
func (t *Thread) End() Status     { return Finished }

type Runner interface{ Run() Status }

func Block[T any](poll func() Result[T], background ...func()) T { return poll().Value }

func Drive(r Runner, max int) (int, bool) { return 0, false }
