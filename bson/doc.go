// Copyright (C) MongoDB, Inc. 2017-present.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License. You may obtain
// a copy of the License at http://www.apache.org/licenses/LICENSE-2.0

// Package bson implements a zero-copy reader, a typed path accessor surface,
// a canonical ordering, and an extended JSON codec for BSON documents.
//
// The central type is Document, a wrapper around a byte slice holding a
// single encoded document. A Document never owns or copies the bytes it is
// given; the caller is responsible for keeping the backing buffer alive for
// as long as any Element, Value, or sub-Document derived from it is in use.
// Documents are immutable. New documents are only created by parsing
// extended JSON text (ParseExtJSON) or by handing encoded bytes to
// NewDocument or ReadDocument.
//
// Failures split into two classes. Structurally corrupt bytes (a length
// header inconsistent with the buffer, a missing terminator, an element that
// runs past the end) surface as hard errors from NewDocument, ReadDocument,
// Validate, or a traversal step. Everything else, an unresolved path, a type
// mismatch at a resolved path, renders as an absent value: the typed
// accessors (StringAt, Int32At, ...) return an ok bool and never an error,
// so lookups compose in query-shaped code where a field may legitimately be
// missing or differently typed from one document to the next.
//
// Version is the engine version reported to embedding hosts.
package bson

// Version is the version of the document engine.
const Version = "2.1"
