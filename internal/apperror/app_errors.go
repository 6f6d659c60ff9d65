package apperror

import "errors"

var (
	ErrInvalidMark      = errors.New("mark must be non-zero")
	ErrSameMarks        = errors.New("first and second marks must differ")
	ErrInvalidTurn      = errors.New("turn must equal one of the marks")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrInvalidCellValue = errors.New("cell holds a value outside the allowed marks")
	ErrGameFinished     = errors.New("game is already finished")
	ErrBoardFull        = errors.New("board has no empty cells")
	ErrUnknownVariant   = errors.New("unknown search variant")
	ErrUnknownTieBreak  = errors.New("unknown tie-break policy")
	ErrPositionNotFound = errors.New("position not found")
	ErrResultNotFound   = errors.New("result not found")
)
