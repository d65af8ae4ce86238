// Package services implements the driving ports.
//
// ExtractionService and RetrievalService are the two halves of the pipeline;
// IndexService builds what retrieval searches and IndexHandle is the slot
// they share. PolicyAPI is the request/response boundary over both.
package services
