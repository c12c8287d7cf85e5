package book

// priceLevel is one aggregate price level on one side of the book: the sum
// of quantity over every live order resting at price, plus the AVL-tree
// linkage needed to keep bids/asks ordered.
type priceLevel struct {
	price    uint64
	quantity uint64

	orders orderList

	parent  *priceLevel
	left    *priceLevel
	right   *priceLevel
	balance int
}

func newPriceLevel(price uint64) *priceLevel {
	return &priceLevel{price: price}
}

// orderList is an intrusive doubly-linked list of orders resting at one
// price level, ordered by arrival (oldest first).
type orderList struct {
	head *bookOrder
	tail *bookOrder
	size int
}

func (l *orderList) pushBack(o *bookOrder) {
	o.next = nil
	o.prev = l.tail
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.size++
}

func (l *orderList) remove(o *bookOrder) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.size--
}

func (l *orderList) empty() bool { return l.size == 0 }
