package server

import (
	"chordring/internal/domain"
	"chordring/internal/rpcapi"
)

func nodesToMsgs(nodes []*domain.Node) []*rpcapi.NodeMsg {
	out := make([]*rpcapi.NodeMsg, len(nodes))
	for i, nd := range nodes {
		out[i] = rpcapi.NodeToMsg(nd)
	}
	return out
}

func resourcesToMsgs(resources []domain.Resource) []*rpcapi.ResourceMsg {
	out := make([]*rpcapi.ResourceMsg, len(resources))
	for i, res := range resources {
		out[i] = rpcapi.ResourceToMsg(res)
	}
	return out
}
