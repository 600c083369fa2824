package remote

// queue 命令队列：非阻塞写入，队列满时丢弃最旧的命令
type queue struct {
	ch chan Command
}

func newQueue(size int) *queue {
	if size <= 0 {
		size = 1
	}
	return &queue{ch: make(chan Command, size)}
}

// push 返回 false 表示丢弃了一条旧命令
func (q *queue) push(cmd Command) bool {
	for {
		select {
		case q.ch <- cmd:
			return true
		default:
		}
		// 队列满，丢弃旧的，保留新的
		select {
		case <-q.ch:
			select {
			case q.ch <- cmd:
			default:
				continue
			}
			return false
		default:
		}
	}
}

// drain 取出当前排队的全部命令
func (q *queue) drain() []Command {
	var out []Command
	for {
		select {
		case cmd := <-q.ch:
			out = append(out, cmd)
		default:
			return out
		}
	}
}

func (q *queue) len() int {
	return len(q.ch)
}
