package service

import (
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapGateway: bagian Snap API yang dipakai checkout (diganti fake di test)
type SnapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, error)
}

type midtransSnap struct {
	client snap.Client
}

func NewMidtransGateway(serverKey string, production bool) SnapGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &midtransSnap{}
	g.client.New(serverKey, env)
	return g
}

func (g *midtransSnap) CreateTransaction(req *snap.Request) (*snap.Response, error) {
	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return nil, mErr
	}
	return resp, nil
}
