package symtab

type SymTag int

const (
	TagNull = SymTag(iota)
	TagCompiland
	TagBaseType
	TagPointerType
	TagArrayType
	TagTypedef
	TagEnum
	TagUDT
	TagFunctionType
	TagFunction
	TagData
	TagBlock
	TagLabel
)

// Symt is any object owned by the symbol database.
type Symt interface {
	SymTag() SymTag
}

type BasicKind int

const (
	BasicNoType = BasicKind(iota)
	BasicVoid
	BasicChar
	BasicInt
	BasicUInt
	BasicFloat
	BasicBool
	BasicLong
	BasicULong
	BasicComplex
)

type BasicType struct {
	Kind BasicKind
	Name string
	Size uint64
}

func (*BasicType) SymTag() SymTag { return TagBaseType }

type PointerType struct {
	PointsTo Symt // nil for void*
}

func (*PointerType) SymTag() SymTag { return TagPointerType }

type ArrayType struct {
	Min int64
	Max int64

	Elem  Symt
	Index Symt // the subrange's own type, may be nil
}

func (*ArrayType) SymTag() SymTag { return TagArrayType }

type Typedef struct {
	Name string
	Of   Symt
}

func (*Typedef) SymTag() SymTag { return TagTypedef }

type EnumElement struct {
	Name  string
	Value int64
}

type Enum struct {
	Name     string
	Elements []EnumElement
}

func (*Enum) SymTag() SymTag { return TagEnum }

type UDTKind int

const (
	UDTStruct = UDTKind(iota)
	UDTClass
	UDTUnion
)

type UDTMember struct {
	Name string
	Type Symt

	// Position within the aggregate, in bits.  BitSize is zero for
	// non-bit-field members.
	BitOffset uint64
	BitSize   uint64
}

type UDT struct {
	Kind    UDTKind
	Name    string
	Size    uint64
	Members []UDTMember
}

func (*UDT) SymTag() SymTag { return TagUDT }

type FunctionSignature struct {
	Return Symt // nil for void
	Params []Symt
}

func (*FunctionSignature) SymTag() SymTag { return TagFunctionType }

const pointerSize = 4 // 32-bit address space

// TypeLength returns the byte size of a type, or 0 when unknown.
func TypeLength(symt Symt) uint64 {
	switch typ := symt.(type) {
	case *BasicType:
		return typ.Size
	case *PointerType:
		return pointerSize
	case *ArrayType:
		count := typ.Max - typ.Min + 1
		if count < 0 {
			return 0
		}
		return uint64(count) * TypeLength(typ.Elem)
	case *Typedef:
		if typ.Of == nil {
			return 0
		}
		return TypeLength(typ.Of)
	case *Enum:
		return pointerSize
	case *UDT:
		return typ.Size
	}
	return 0
}

func (module *Module) NewBasic(
	kind BasicKind,
	name string,
	size uint64,
) *BasicType {
	typ := &BasicType{
		Kind: kind,
		Name: name,
		Size: size,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) NewPointer(pointsTo Symt) *PointerType {
	typ := &PointerType{
		PointsTo: pointsTo,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) NewArray(
	min int64,
	max int64,
	elem Symt,
	index Symt,
) *ArrayType {
	typ := &ArrayType{
		Min:   min,
		Max:   max,
		Elem:  elem,
		Index: index,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) NewTypedef(of Symt, name string) *Typedef {
	typ := &Typedef{
		Name: name,
		Of:   of,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) NewEnum(name string) *Enum {
	typ := &Enum{
		Name: name,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) AddEnumElement(
	enum *Enum,
	name string,
	value int64,
) {
	enum.Elements = append(
		enum.Elements,
		EnumElement{
			Name:  name,
			Value: value,
		})
}

func (module *Module) NewUDT(kind UDTKind, name string, size uint64) *UDT {
	typ := &UDT{
		Kind: kind,
		Name: name,
		Size: size,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) AddUDTElement(
	udt *UDT,
	name string,
	typ Symt,
	bitOffset uint64,
	bitSize uint64,
) {
	udt.Members = append(
		udt.Members,
		UDTMember{
			Name:      name,
			Type:      typ,
			BitOffset: bitOffset,
			BitSize:   bitSize,
		})
}

func (module *Module) NewFunctionSignature(ret Symt) *FunctionSignature {
	typ := &FunctionSignature{
		Return: ret,
	}
	module.Types = append(module.Types, typ)
	return typ
}

func (module *Module) AddSignatureParameter(
	signature *FunctionSignature,
	param Symt,
) {
	signature.Params = append(signature.Params, param)
}
