package minesweeper

import "github.com/gammazero/deque"

type Visitor func(*Cell)

// flood visits start and cascades through the neighbours of every empty
// cell it visits. Only Closed cells are visited and visit must move them
// out of Closed, so opened and flagged cells are never revisited.
func flood(start *Cell, visit Visitor) {
	var queue deque.Deque
	queue.PushBack(start)

	for queue.Len() > 0 {
		cell := queue.PopFront().(*Cell)
		if cell.state != Closed || cell.IsBomb() {
			continue
		}

		visit(cell)

		if cell.content == Empty {
			for _, neighbor := range cell.Neighbors() {
				if neighbor.state == Closed {
					queue.PushBack(neighbor)
				}
			}
		}
	}
}
