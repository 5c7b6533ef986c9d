// 按键值S升序维护的泛型双向链表
// 节点由调用方持有，键值由调用方在两次整理之间修改，整理时用PopUnsorted+Merge恢复有序
package container

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "container")

// ListNode 双向链表中的节点
type ListNode[T any] struct {
	parent     *List[T]     // 所属链表
	prev, next *ListNode[T] // 前驱和后继节点
	S          float64      // 键值（位置）
	Value      T
}

func (n *ListNode[T]) String() string {
	return fmt.Sprintf("Node{Key:%v, Value:%v}", n.S, n.Value)
}

// Prev 前驱节点，第一个节点返回nil
func (n *ListNode[T]) Prev() *ListNode[T] {
	return n.prev
}

// Next 后继节点，最后一个节点返回nil
func (n *ListNode[T]) Next() *ListNode[T] {
	return n.next
}

// Parent 节点所在的链表，不在任何链表中时返回nil
func (n *ListNode[T]) Parent() *List[T] {
	return n.parent
}

// InsertBefore 在节点前插入新节点
// 说明：新节点不能已经属于某个链表
func (n *ListNode[T]) InsertBefore(add *ListNode[T]) {
	if add.parent != nil {
		log.Panicf("insert node %v who already in list %v", add, add.parent)
	}
	add.parent = n.parent
	add.next = n
	add.prev = n.prev
	n.prev = add
	if add.prev != nil {
		add.prev.next = add
	} else {
		add.parent.head = add
	}
	n.parent.length++
}

// InsertAfter 在节点后插入新节点
// 说明：新节点不能已经属于某个链表
func (n *ListNode[T]) InsertAfter(add *ListNode[T]) {
	if add.parent != nil {
		log.Panicf("insert node %v who already in list %v", add, add.parent)
	}
	add.parent = n.parent
	add.prev = n
	add.next = n.next
	n.next = add
	if add.next != nil {
		add.next.prev = add
	} else {
		add.parent.tail = add
	}
	n.parent.length++
}

// List 双向链表
type List[T any] struct {
	ID         string       // 链表标识符
	head, tail *ListNode[T] // 头尾节点指针
	length     int          // 链表长度
}

func (l *List[T]) String() string {
	return fmt.Sprintf("List{ID:%v}", l.ID)
}

// Values 按链表顺序的全部值
func (l *List[T]) Values() []T {
	values := make([]T, 0, l.length)
	for node := l.head; node != nil; node = node.next {
		values = append(values, node.Value)
	}
	return values
}

func (l *List[T]) Len() int {
	return l.length
}

// PushBack 向链表尾部插入节点
func (l *List[T]) PushBack(add *ListNode[T]) {
	if l.tail == nil {
		l.pushFirst(add)
		return
	}
	// length++和add.parent在InsertAfter中处理
	l.tail.InsertAfter(add)
}

// pushFirst 向空链表插入第一个节点
func (l *List[T]) pushFirst(add *ListNode[T]) {
	if add.parent != nil {
		log.Panicf("push node %v who already in list %v", add, add.parent)
	}
	add.parent = l
	add.prev, add.next = nil, nil
	l.head, l.tail = add, add
	l.length++
}

// Remove 从链表中移除节点
// 说明：节点必须属于当前链表，移除后节点的指针全部清空，可以再次插入
func (l *List[T]) Remove(node *ListNode[T]) {
	if node.parent != l {
		log.Panicf("remove node %v from wrong list %v (parent=%v)", node, l, node.parent)
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	node.parent = nil
	l.length--
}

// Seek 第一个键值严格大于s的节点，不存在则返回nil
func (l *List[T]) Seek(s float64) *ListNode[T] {
	node := l.head
	for node != nil && node.S <= s {
		node = node.next
	}
	return node
}

// PopUnsorted 移除逆序节点
// 功能：移除键值小于前驱键值的节点，剩余节点保持升序
// 返回：被移除的节点
func (l *List[T]) PopUnsorted() (unsorted []*ListNode[T]) {
	for node := l.head; node != nil; {
		next := node.next
		if node.prev != nil && node.prev.S > node.S {
			l.Remove(node)
			unsorted = append(unsorted, node)
		}
		node = next
	}
	return unsorted
}

// Merge 批量插入节点
// 算法说明：
// 1. 按键值稳定排序待插入节点
// 2. 与链表做一次归并，键值相同时新节点插在已有节点之前
func (l *List[T]) Merge(adds []*ListNode[T]) {
	slices.SortStableFunc(adds, func(a, b *ListNode[T]) int {
		return cmp.Compare(a.S, b.S)
	})
	node := l.head
	for _, add := range adds {
		for node != nil && node.S < add.S {
			node = node.next
		}
		if node != nil {
			node.InsertBefore(add)
		} else {
			l.PushBack(add)
		}
	}
}
