package book

import "errors"

// Semantic errors returned from Apply. Book state is left unchanged when
// any of these is returned — per spec, rejection commits no partial state.
var (
	// ErrDuplicateOrder is returned when an AddOrder's order_id is already
	// present in the book.
	ErrDuplicateOrder = errors.New("book: duplicate order")
	// ErrUnknownOrder is returned when a ModifyOrder or DeleteOrder
	// references an order_id that is not currently live.
	ErrUnknownOrder = errors.New("book: unknown order")
	// ErrInvalidSide is returned when an AddOrder carries a side byte
	// other than Bid or Ask.
	ErrInvalidSide = errors.New("book: invalid side")
	// ErrUnexpectedMessageType is returned when Apply is given a view
	// whose type it does not know how to dispatch.
	ErrUnexpectedMessageType = errors.New("book: unexpected message type")
)
