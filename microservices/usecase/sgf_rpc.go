package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"sgfgrove/internal/domain/record"
	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
	sgfRPC "sgfgrove/microservices/proto"
)

type SgfConverter interface {
	Convert(text string) (sgf.Collection, error)
	Normalize(text string) (string, error)
	Info(text string) (record.Info, error)
}

type SgfUseCase struct {
	converter SgfConverter
	sgfRPC.UnimplementedSgfServiceServer
}

func NewSgfUseCase(converter SgfConverter) *SgfUseCase {
	return &SgfUseCase{
		converter: converter,
	}
}

func (s *SgfUseCase) Parse(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Value, error) {
	c, err := s.converter.Convert(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	out := new(structpb.Value)
	if err := convertJSON(c, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode collection: %v", err)
	}
	return out, nil
}

func (s *SgfUseCase) Normalize(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	text, err := s.converter.Normalize(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(text), nil
}

func (s *SgfUseCase) Info(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	info, err := s.converter.Info(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	out := new(structpb.Struct)
	if err := convertJSON(info, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode info: %v", err)
	}
	return out, nil
}

// convertJSON moves v into a well-known message through its JSON form.
func convertJSON(v any, out proto.Message) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return protojson.Unmarshal(data, out)
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, sgferrors.ErrSyntax),
		errors.Is(err, sgferrors.ErrType),
		errors.Is(err, sgferrors.ErrMalformedInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, sgferrors.ErrUnsupportedFormat):
		return status.Error(codes.Unimplemented, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
