package adapter

import (
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var objectIDType = reflect.TypeOf(bson.ObjectID{})

// objectIDCodec writes ObjectIDs as their hex string and the zero id as null.
type objectIDCodec struct{}

func (objectIDCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return (*bson.ObjectID)(ptr).IsZero()
}

func (c objectIDCodec) isNull(ptr unsafe.Pointer) bool { return c.IsEmpty(ptr) }

func (objectIDCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	id := *(*bson.ObjectID)(ptr)
	if id.IsZero() {
		stream.WriteNil()
		return
	}
	stream.WriteString(id.Hex())
}

func (objectIDCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.ReadNil() {
		*(*bson.ObjectID)(ptr) = bson.NilObjectID
		return
	}
	id, err := bson.ObjectIDFromHex(iter.ReadString())
	if err != nil {
		fail(iter, err)
		return
	}
	*(*bson.ObjectID)(ptr) = id
}

type objectIDKeyCodec struct{ objectIDCodec }

func (objectIDKeyCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString((*bson.ObjectID)(ptr).Hex())
}
