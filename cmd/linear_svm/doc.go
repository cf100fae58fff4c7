// Command linear_svm trains a multi-class linear SVM and uses it to classify
// test points.
//
// Train on a dataset whose last column holds the labels and save the model:
//
//	linear_svm -t data.csv -M model.json -v
//
// Train with parallel SGD on separate labels, then classify a test set and
// report the accuracy:
//
//	linear_svm -t data.csv -l labels.csv -O psgd -s 0.05 -T test.csv -A test_labels.csv -P predictions.txt -v
//
// Reuse a saved model:
//
//	linear_svm -m model.json -T test.csv -P predictions.txt -p scores.csv
//
// Run "linear_svm --help" for every option.
package main
