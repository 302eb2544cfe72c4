package models

import "time"

// Right связывает пару (модель, пользователь) с уровнем доступа.
// RightLevel=false — только чтение, RightLevel=true — чтение и запись.
// На пару (ModelID, Username) существует не более одной записи,
// уникальность обеспечивается схемой базы данных.
type Right struct {
	ModelID    string
	Username   string
	RightLevel bool
	GrantedAt  time.Time
}

// Access — вычисленный уровень доступа пользователя к модели.
type Access int

const (
	// AccessNone — доступа нет.
	AccessNone Access = iota
	// AccessRead — доступ только на чтение.
	AccessRead
	// AccessWrite — доступ на чтение и запись.
	AccessWrite
)

// CanRead сообщает, достаточен ли уровень для чтения.
func (a Access) CanRead() bool { return a >= AccessRead }

// CanWrite сообщает, достаточен ли уровень для записи.
func (a Access) CanWrite() bool { return a >= AccessWrite }
